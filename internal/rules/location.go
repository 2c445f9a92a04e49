package rules

// Position is a single point in a source file: a 1-based line and a 0-based
// column (LocationOfPos shifts the lexer's 1-based column down by one). The
// Diagnostic Publisher converts the line to LSP's 0-based coordinates at the
// wire boundary.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Location is a range in a source file. Start is inclusive, End is
// exclusive (the first position after the covered text), following LSP
// range conventions. A synthetic (file-level) location has both Start and
// End equal to the zero Position, per the specification's "0,0-0,0 when
// synthetic" convention.
type Location struct {
	File  string   `json:"file"`
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// NewFileLocation creates a synthetic, file-level location carrying no
// specific position.
func NewFileLocation(file string) Location {
	return Location{File: file}
}

// NewPointLocation creates a location for a single point (1-based line,
// 0-based column),
// with End equal to Start.
func NewPointLocation(file string, line, col int) Location {
	p := Position{Line: line, Column: col}
	return Location{File: file, Start: p, End: p}
}

// NewRangeLocation creates a location spanning a start and an exclusive end
// position (1-based lines, 0-based columns).
func NewRangeLocation(file string, startLine, startCol, endLine, endCol int) Location {
	return Location{
		File:  file,
		Start: Position{Line: startLine, Column: startCol},
		End:   Position{Line: endLine, Column: endCol},
	}
}

// IsFileLevel reports whether this is a synthetic, file-level location.
func (l Location) IsFileLevel() bool {
	return l.Start.Line == 0 && l.Start.Column == 0 && l.End.Line == 0 && l.End.Column == 0
}

// IsPointLocation reports whether this location covers a single point.
func (l Location) IsPointLocation() bool {
	return l.Start == l.End
}
