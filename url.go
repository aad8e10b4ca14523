package lidar

import (
	"fmt"
	"strings"
)

// DefaultBaseURL is where ARSO publishes the LiDAR tiles.
const DefaultBaseURL = "http://gis.arso.gov.si/lidar"

// Tile fully identifies one remote LiDAR file.
type Tile struct {
	PointFormat      PointFormat
	FileFormat       FileFormat
	AreaCode         AreaCode
	CoordinateSystem CoordinateSystem
	Coordinate       Coordinate
}

// RemoteName returns the remote file stem, e.g. TMR_100_200.
func (t Tile) RemoteName() string {
	return fmt.Sprintf("%s%s_%d_%d",
		t.CoordinateSystem.Infix(),
		t.PointFormat.Infix(),
		t.Coordinate.X,
		t.Coordinate.Y,
	)
}

// URL returns the tile URL under base, DefaultBaseURL when base is empty.
func (t Tile) URL(base string) string {

	if base == "" {
		base = DefaultBaseURL
	}

	return fmt.Sprintf("%s/%s/%s/%s/%s.%s",
		strings.TrimSuffix(base, "/"),
		t.PointFormat,
		t.AreaCode,
		t.CoordinateSystem,
		t.RemoteName(),
		t.FileFormat,
	)
}

// Filename returns the local file name. The extension is the point format
// token, not the remote file format.
func (t Tile) Filename() string {
	return fmt.Sprintf("%d_%d.%s", t.Coordinate.X, t.Coordinate.Y, t.PointFormat)
}
