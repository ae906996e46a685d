package web_test

import (
	"fmt"

	"github.com/matzehuels/spiderweb/pkg/geom"
	"github.com/matzehuels/spiderweb/pkg/web"
)

func ExampleGenerate() {
	m, err := web.Generate(web.Params{
		Size:   2,
		Shape:  web.ShapeCircular,
		Spokes: 8,
		Ribs:   4,
	})
	if err != nil {
		panic(err)
	}
	spokes, ribs := m.Counts()
	fmt.Println("vertices:", len(m.Vertices))
	fmt.Println("spoke edges:", spokes)
	fmt.Println("rib edges:", ribs)
	// Output:
	// vertices: 33
	// spoke edges: 32
	// rib edges: 32
}

func ExampleModulator_Curve() {
	mod := web.Modulator{Rings: 1}
	a, b := geom.V(1, 0, 0), geom.V(0, 1, 0)

	straight := mod.Curve(a, b, 0, 0)
	bent := mod.Curve(a, b, 1, 0)
	fmt.Println(straight.IsStraight())
	fmt.Printf("%.2f\n", bent.Sag())
	// Output:
	// true
	// 0.21
}
