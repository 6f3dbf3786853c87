// Package trace records the subdivision decisions of the processor
// scheduler: which pieces each call retained and where they landed.
// This package has no dependencies on sim/ or sim/multiblock/; it stores pure data types.
package trace

// Mode names the façade operation that produced a record.
type Mode string

const (
	ModeExecute   Mode = "execute"
	ModeReductive Mode = "reductive"
	ModeInternal  Mode = "internal"
)

// UnitRecord captures one retained piece of one façade call. Boxes are
// flattened so records export directly as CSV rows.
type UnitRecord struct {
	Call      int    `csv:"call"`
	Piece     int    `csv:"piece"`
	Mode      Mode   `csv:"mode"`
	Domain    string `csv:"domain"`    // domain kind of the generator
	Reference string `csv:"reference"` // name of the reference grid
	BlockIDs  string `csv:"block_ids"` // one id per grid, comma separated
	ShiftX    int    `csv:"shift_x"`
	ShiftY    int    `csv:"shift_y"`
	ShiftZ    int    `csv:"shift_z"`
	X0        int    `csv:"x0"`
	X1        int    `csv:"x1"`
	Y0        int    `csv:"y0"`
	Y1        int    `csv:"y1"`
	Z0        int    `csv:"z0"`
	Z1        int    `csv:"z1"`
	Cells     int    `csv:"cells"` // cells of the intersection box
}

// Wrapped reports whether the piece comes from a periodic image.
func (r UnitRecord) Wrapped() bool {
	return r.ShiftX != 0 || r.ShiftY != 0 || r.ShiftZ != 0
}
