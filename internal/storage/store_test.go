package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestYAMLFile_Load(t *testing.T) {
	tests := map[string]struct {
		contents *string
		expCount int
		expErr   string
	}{
		"missing file is empty": {
			expCount: 0,
		},
		"empty file is empty": {
			contents: ptr(""),
			expCount: 0,
		},
		"nested booleans": {
			contents: ptr("a:\n  wings: true\n  halo: false\nb:\n  trail: true\n"),
			expCount: 2,
		},
		"invalid yaml": {
			contents: ptr("a: [unterminated\n"),
			expErr:   "unmarshalling yaml",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "prefs.yml")
			if tt.contents != nil {
				if err := os.WriteFile(path, []byte(*tt.contents), 0644); err != nil {
					t.Fatalf("failed to write test file: %v", err)
				}
			}

			recs, err := NewYAMLFile(path).Load()
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "record count", len(recs), tt.expCount)
		})
	}
}

func TestYAMLFile_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.yml")
	f := NewYAMLFile(path)

	err := f.Save(Records{
		"a": {"wings": true, "halo": false},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	recs, err := f.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "wings", recs["a"]["wings"], true)
	testutil.AssertEqual(t, "halo", recs["a"]["halo"], false)

	_, err = os.Stat(path + ".tmp")
	if !os.IsNotExist(err) {
		t.Errorf("expected temp file to be renamed away, stat err = %v", err)
	}
}

func TestYAMLFile_SaveReplacesContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yml")
	f := NewYAMLFile(path)

	if err := f.Save(Records{"a": {"wings": true}, "b": {"wings": true}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.Save(Records{"b": {"wings": false}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	recs, err := f.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "record count", len(recs), 1)
	testutil.AssertEqual(t, "b wings", recs["b"]["wings"], false)
}

func ptr(s string) *string {
	return &s
}
