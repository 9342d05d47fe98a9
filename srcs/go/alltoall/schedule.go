package alltoall

// PartnerRow is the row paired with row at the given stage of an exchange over nrows
// rows. For a fixed stage the pairing is an involution, and over stages 0..nrows-1
// every unordered pair of rows, including a row with itself, meets exactly once, at
// stage (a+b) mod nrows.
func PartnerRow(row, stage, nrows int) int {
	return (nrows - row + stage) % nrows
}

// SelfPairedStage is the stage at which row exchanges with itself.
func SelfPairedStage(row, nrows int) int {
	return (2 * row) % nrows
}
