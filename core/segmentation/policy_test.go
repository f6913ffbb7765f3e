package segmentation

import "fmt"

func Example_policySelect() {
	p := MakeDefaultPolicy()

	for _, cellLine := range []string{"RPE-1 40X", "hela 20x", "RPE-1", "U2OS", "MCF7"} {
		diameter, model := p.Select(cellLine)
		fmt.Printf("%v -> diameter %v, model %v\n", cellLine, diameter, model)
	}

	// Output:
	// RPE-1 40X -> diameter 100, model 40x_Tub_H2B
	// hela 20x -> diameter 25, model cyto
	// RPE-1 -> diameter 10, model RPE-1_Tub_Hoechst
	// U2OS -> diameter 10, model U2OS_Tub_Hoechst
	// MCF7 -> diameter 10, model U2OS_Tub_Hoechst
}
