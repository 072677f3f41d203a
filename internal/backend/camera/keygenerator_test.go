package camera

import (
	"regexp"
	"testing"
)

func Test_newBlobID_FormatAndUniqueness(t *testing.T) {
	uuidV4Pattern := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

	const n = 128
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		got, err := newBlobID()
		if err != nil {
			t.Fatalf("newBlobID() returned error: %v", err)
		}
		if !uuidV4Pattern.MatchString(got) {
			t.Fatalf("newBlobID() returned invalid UUID v4 format: %q", got)
		}
		if _, dup := seen[got]; dup {
			t.Fatalf("newBlobID() returned duplicate id: %q", got)
		}
		seen[got] = struct{}{}
	}
}
