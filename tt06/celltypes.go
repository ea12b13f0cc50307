package tt06

// Cell type identifiers for the standard transmural variants.
const (
	EndoCell = iota
	MidCell
	EpiCell
)

// SSwitch values selecting the s-gate kinetics variant.
const (
	SEpiMid = 0 // epicardial / midmyocardial s-gate formulation
	SEndo   = 1 // endocardial s-gate formulation
)

// CellTypeParms is the immutable per-cell-type configuration: the model
// variant switch, the conductances that differ across the wall, and the
// bounds used to spread concentration initial values across a population.
// Instances are shared read-only by every cell of the type.
type CellTypeParms struct {
	CellType int
	SSwitch  int

	PNaK float64 // Na+/K+ pump maximum (pA/pF)
	GKs  float64 // slow delayed rectifier conductance (nS/pF)
	GTo  float64 // transient outward conductance (nS/pF)
	GNaL float64 // late sodium conductance (nS/pF); 0 disables INaL

	// Initialization bounds for concentration heterogeneity (mM). A
	// population of this type starts with K_i and Na_i spread from min
	// through mid to max.
	MinKI, MidKI, MaxKI    float64
	MinNaI, MidNaI, MaxNaI float64
}

// StandardCellTypes returns the endo/mid/epi parameter table of the
// published model. INaL is off by default; enable it per type by setting
// GNaL.
func StandardCellTypes() []CellTypeParms {
	base := CellTypeParms{
		PNaK:   2.724,
		GNaL:   0.0,
		MinKI:  135.0, MidKI: 136.89, MaxKI: 138.5,
		MinNaI: 7.9, MidNaI: 8.604, MaxNaI: 9.3,
	}

	endo := base
	endo.CellType = EndoCell
	endo.SSwitch = SEndo
	endo.GKs = 0.392
	endo.GTo = 0.073

	mid := base
	mid.CellType = MidCell
	mid.SSwitch = SEpiMid
	mid.GKs = 0.098
	mid.GTo = 0.294

	epi := base
	epi.CellType = EpiCell
	epi.SSwitch = SEpiMid
	epi.GKs = 0.392
	epi.GTo = 0.294

	return []CellTypeParms{endo, mid, epi}
}
