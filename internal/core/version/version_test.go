package version

import "testing"

func TestInfo_Defaults(t *testing.T) {
	bi := Info()
	if bi.Service != Service || bi.Version != "dev" {
		t.Fatalf("unexpected build info: %+v", bi)
	}
	// test binaries carry no vcs stamps
	if bi.Commit != "unknown" || Commit() != bi.Commit {
		t.Fatalf("commit = %q", bi.Commit)
	}
}
