package lidar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Parse errors.
var (
	ErrUnknownPointFormat      = errors.New("unknown point format")
	ErrUnknownFileFormat       = errors.New("unknown file format")
	ErrUnknownCoordinateSystem = errors.New("unknown coordinate system")
	ErrInvalidAreaCode         = errors.New("invalid area code")
	ErrInvalidCoordinate       = errors.New("invalid coordinate")
)

type (

	// PointFormat is the LiDAR product family.
	PointFormat int

	// FileFormat is the container the remote tile is stored in.
	FileFormat int

	// CoordinateSystem is the national reference frame of the grid.
	CoordinateSystem int

	// AreaCode names a coverage block, e.g. b14.
	AreaCode struct {
		Letter rune
		Number uint32
	}

	// Coordinate is a grid cell index.
	Coordinate struct {
		X, Y uint64
	}
)

const (
	GKOT PointFormat = iota
	OTR
	DTM
)

const (
	ZLAS FileFormat = iota
	LAZ
	ASC
)

const (
	D96TM CoordinateSystem = iota
	D48GK
)

var (
	pointFormatTokens = map[PointFormat]string{GKOT: "gkot", OTR: "otr", DTM: "dmr1"}
	pointFormatInfix  = map[PointFormat]string{GKOT: "", OTR: "R", DTM: "1"}

	fileFormatTokens = map[FileFormat]string{ZLAS: "zlas", LAZ: "laz", ASC: "asc"}

	coordinateSystemTokens = map[CoordinateSystem]string{D96TM: "D96TM", D48GK: "D48GK"}
	coordinateSystemInfix  = map[CoordinateSystem]string{D96TM: "TM", D48GK: "GK"}
)

// ParsePointFormat parses GKOT, OTR or DTM, ignoring case.
func ParsePointFormat(s string) (PointFormat, error) {

	switch strings.ToLower(s) {
	case "gkot":
		return GKOT, nil
	case "otr":
		return OTR, nil
	case "dtm":
		return DTM, nil
	}

	return 0, fmt.Errorf("%w: %q (want GKOT, OTR or DTM)", ErrUnknownPointFormat, s)
}

// String returns the URL path token. DTM renders as dmr1.
func (p PointFormat) String() string {
	if t, ok := pointFormatTokens[p]; ok {
		return t
	}
	return fmt.Sprintf("PointFormat(%d)", int(p))
}

// Infix returns the part of the remote filename that follows the
// coordinate system infix.
func (p PointFormat) Infix() string {
	return pointFormatInfix[p]
}

// Valid reports whether p is a known point format.
func (p PointFormat) Valid() bool {
	_, ok := pointFormatTokens[p]
	return ok
}

func (p *PointFormat) UnmarshalText(b []byte) (err error) {
	*p, err = ParsePointFormat(string(b))
	return
}

// ParseFileFormat parses ZLAS, LAZ or ASC, ignoring case.
func ParseFileFormat(s string) (FileFormat, error) {

	switch strings.ToLower(s) {
	case "zlas":
		return ZLAS, nil
	case "laz":
		return LAZ, nil
	case "asc":
		return ASC, nil
	}

	return 0, fmt.Errorf("%w: %q (want ZLAS, LAZ or ASC)", ErrUnknownFileFormat, s)
}

// String returns the token used as URL extension.
func (f FileFormat) String() string {
	if t, ok := fileFormatTokens[f]; ok {
		return t
	}
	return fmt.Sprintf("FileFormat(%d)", int(f))
}

func (f FileFormat) Valid() bool {
	_, ok := fileFormatTokens[f]
	return ok
}

func (f *FileFormat) UnmarshalText(b []byte) (err error) {
	*f, err = ParseFileFormat(string(b))
	return
}

// ParseCoordinateSystem parses D96TM or D48GK, ignoring case.
func ParseCoordinateSystem(s string) (CoordinateSystem, error) {

	switch strings.ToLower(s) {
	case "d96tm":
		return D96TM, nil
	case "d48gk":
		return D48GK, nil
	}

	return 0, fmt.Errorf("%w: %q (want D96TM or D48GK)", ErrUnknownCoordinateSystem, s)
}

// String returns the URL path token, D96TM or D48GK.
func (c CoordinateSystem) String() string {
	if t, ok := coordinateSystemTokens[c]; ok {
		return t
	}
	return fmt.Sprintf("CoordinateSystem(%d)", int(c))
}

// Infix returns the two letter prefix of the remote filename.
func (c CoordinateSystem) Infix() string {
	return coordinateSystemInfix[c]
}

func (c CoordinateSystem) Valid() bool {
	_, ok := coordinateSystemTokens[c]
	return ok
}

func (c *CoordinateSystem) UnmarshalText(b []byte) (err error) {
	*c, err = ParseCoordinateSystem(string(b))
	return
}

// ParseAreaCode parses a letter followed by a base-10 number, e.g. b14.
func ParseAreaCode(s string) (AreaCode, error) {

	if s == "" {
		return AreaCode{}, fmt.Errorf("%w: empty", ErrInvalidAreaCode)
	}

	letter := []rune(s)[0]

	if !unicode.IsLetter(letter) {
		return AreaCode{}, fmt.Errorf("%w: %q must start with a letter", ErrInvalidAreaCode, s)
	}

	rest := s[len(string(letter)):]

	n, err := strconv.ParseUint(rest, 10, 32)

	if err != nil {
		return AreaCode{}, fmt.Errorf("%w: %q: number part: %v", ErrInvalidAreaCode, s, err)
	}

	return AreaCode{Letter: unicode.ToLower(letter), Number: uint32(n)}, nil
}

// String returns the URL token, letter and number joined by an underscore.
func (a AreaCode) String() string {
	return fmt.Sprintf("%c_%d", a.Letter, a.Number)
}

func (a AreaCode) IsZero() bool {
	return a.Letter == 0
}

func (a *AreaCode) UnmarshalText(b []byte) (err error) {
	*a, err = ParseAreaCode(string(b))
	return
}

// ParseCoordinate parses the X_Y form.
func ParseCoordinate(s string) (Coordinate, error) {

	parts := strings.Split(s, "_")

	if len(parts) != 2 {
		return Coordinate{}, fmt.Errorf("%w: %q (want X_Y)", ErrInvalidCoordinate, s)
	}

	x, err := strconv.ParseUint(parts[0], 10, 64)

	if err != nil {
		return Coordinate{}, fmt.Errorf("%w: %q: x: %v", ErrInvalidCoordinate, s, err)
	}

	y, err := strconv.ParseUint(parts[1], 10, 64)

	if err != nil {
		return Coordinate{}, fmt.Errorf("%w: %q: y: %v", ErrInvalidCoordinate, s, err)
	}

	return Coordinate{X: x, Y: y}, nil
}

// String returns the X_Y form.
func (c Coordinate) String() string {
	return fmt.Sprintf("%d_%d", c.X, c.Y)
}

func (c *Coordinate) UnmarshalText(b []byte) (err error) {
	*c, err = ParseCoordinate(string(b))
	return
}
