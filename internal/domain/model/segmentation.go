package model

// UserSegmentation is one entry of the segmentation directory.
type UserSegmentation struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Area     string `json:"area,omitempty"`
	SubArea  string `json:"subArea,omitempty"`
	Location string `json:"location,omitempty"`
}

// Dimension names a segmentation attribute usable as a filter.
type Dimension string

// Segmentation dimensions.
const (
	DimensionArea     Dimension = "area"
	DimensionSubArea  Dimension = "subArea"
	DimensionLocation Dimension = "location"
)

// Dimensions lists the supported dimensions in presentation order.
var Dimensions = []Dimension{DimensionArea, DimensionSubArea, DimensionLocation}

// Value returns the attribute of u for dimension d.
func (u UserSegmentation) Value(d Dimension) string {
	switch d {
	case DimensionArea:
		return u.Area
	case DimensionSubArea:
		return u.SubArea
	case DimensionLocation:
		return u.Location
	default:
		return ""
	}
}
