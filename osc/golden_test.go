package osc

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Golden fixtures pin the exact wire bytes of representative TUIO traffic.
// Regenerate with `go test ./osc -update` after a deliberate format change.
func TestGoldenWireFormat(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)

	alive := NewMessage("/tuio/2Dcur", "alive", int32(1))
	data, err := alive.MarshalBinary()
	if err != nil {
		t.Fatalf("alive message: %s", err)
	}
	g.Assert(t, "tuio_alive", data)

	bundle := NewBundle(
		NewMessage("/tuio/2Dcur", "source", "WebTUIO"),
		alive,
	)
	data, err = bundle.MarshalBinary()
	if err != nil {
		t.Fatalf("bundle: %s", err)
	}
	g.Assert(t, "tuio_bundle", data)
}
