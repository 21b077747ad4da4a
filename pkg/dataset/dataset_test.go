package dataset

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/sanonone/kneescan/pkg/core/vector"
)

func TestLoadPoints2D(t *testing.T) {
	input := `# s1 excerpt
664159,550946
665845 557965

597173	575538
618600 ,  551446
`
	points, err := LoadPoints2D(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	want := []vector.Point2D{
		{X: 664159, Y: 550946},
		{X: 665845, Y: 557965},
		{X: 597173, Y: 575538},
		{X: 618600, Y: 551446},
	}
	if !reflect.DeepEqual(points, want) {
		t.Errorf("got %v, want %v", points, want)
	}
}

func TestLoadPoints2DErrors(t *testing.T) {
	cases := map[string]string{
		"single field": "1,2\n3\n",
		"bad x":        "a,2\n",
		"bad y":        "1,2\n3,b\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadPoints2D(strings.NewReader(input)); err == nil {
				t.Error("expected an error")
			}
		})
	}

	_, err := LoadPoints2D(strings.NewReader("1,2\n3,b\n"))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error should name the line, got %v", err)
	}
}

func TestLoadPoints2DFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s1.csv")
	if err := os.WriteFile(path, []byte("1,2\n3,4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	points, err := LoadPoints2DFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 2 {
		t.Errorf("got %d points, want 2", len(points))
	}

	if _, err := LoadPoints2DFile(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("expected error for a missing file")
	}
}
