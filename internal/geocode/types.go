package geocode

// ForwardRequest is the location lookup body from the frontend.
type ForwardRequest struct {
	Location string `json:"location" binding:"required,min=2,max=200"`
}

// Coordinate is the resolved point returned to the frontend map.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type openCageGeometry struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type openCageResult struct {
	Geometry   openCageGeometry `json:"geometry"`
	Confidence int              `json:"confidence"`
}

// openCageResponse mirrors the relevant parts of the OpenCage payload.
type openCageResponse struct {
	Results []openCageResult `json:"results"`
	Status  struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"status"`
}
