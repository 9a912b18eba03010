package sizing

// DefaultBandSpecs is the generic size chart, XS through XL. The M, L and XL rows
// overlap; Classify resolves those overlaps by this order.
func DefaultBandSpecs() []BandSpec {
	return []BandSpec{
		{Label: "XS", Height: "134.62-150.2", Weight: "40-52", ChestBust: `32"-33"`, Waist: `24"-25"`, Hips: `34.5"-35.5"`},
		{Label: "S", Height: "150.92-158.26", Weight: "57-74", ChestBust: `34"-35"`, Waist: `26"-27"`, Hips: `36"-37"`},
		{Label: "M", Height: "151.94-188.82", Weight: "69-77", ChestBust: `36"-37"`, Waist: `28"-29"`, Hips: `38.5"-39.5"`},
		{Label: "L", Height: "164.4-200.82", Weight: "40-81", ChestBust: `38.5"-40"`, Waist: `30.5"-32"`, Hips: `41"-42.5"`},
		{Label: "XL", Height: "181.92-210.26", Weight: "40-91", ChestBust: `41.5"-43"`, Waist: `33.5"-35"`, Hips: `44"-45.5"`},
	}
}

// DefaultBands returns the parsed generic size chart.
func DefaultBands() Bands {
	bands, err := NewBands(DefaultBandSpecs())
	if err != nil {
		panic(err)
	}
	return bands
}
