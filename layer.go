package caloreco

// LayerFunc maps a calorimeter cell identifier to its layer index.
// Decoding depends on the detector readout and is provided by the caller.
type LayerFunc func(cellID int64) int

const unknownLayer = 10

// UnknownLayer is the default LayerFunc. Without a readout description no
// cell can be attributed to a layer, so every cell is reported as lying
// behind the first layer.
func UnknownLayer(cellID int64) int {
	return unknownLayer
}

// ConstLayer returns a LayerFunc placing every cell in layer l.
func ConstLayer(l int) LayerFunc {
	return func(int64) int { return l }
}
