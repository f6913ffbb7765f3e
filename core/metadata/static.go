package metadata

import "fmt"

// StaticProvider - fixed in-memory metadata, for tests and local runs
type StaticProvider struct {
	Plates    []PlateMeta
	WellMetas []WellMeta
}

func (p *StaticProvider) Plate(plateID string) (PlateMeta, error) {
	for _, plate := range p.Plates {
		if plate.PlateID == plateID {
			return plate, nil
		}
	}
	return PlateMeta{}, fmt.Errorf("plate %v not found", plateID)
}

func (p *StaticProvider) Well(plateID string, position string) (WellMeta, error) {
	for _, well := range p.WellMetas {
		if well.PlateID == plateID && well.Position == position {
			return well, nil
		}
	}
	return WellMeta{}, fmt.Errorf("well %v not found on plate %v", position, plateID)
}

func (p *StaticProvider) Wells(plateID string) ([]WellMeta, error) {
	result := []WellMeta{}
	for _, well := range p.WellMetas {
		if well.PlateID == plateID {
			result = append(result, well)
		}
	}
	return result, nil
}
