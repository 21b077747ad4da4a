package mcp

// --- Tool Arguments ---

type ClusterArgs struct {
	Points    [][]float32 `json:"points,omitempty" jsonschema:"The points to cluster, one coordinate vector per point. All vectors must have the same dimension"`
	Path      string      `json:"path,omitempty" jsonschema:"Server side file of 2D points, one 'x,y' row per line, used when points is empty"`
	MinPts    int         `json:"min_pts,omitempty" jsonschema:"Minimum number of neighbors for a core point. Defaults to the server configuration"`
	Eps       float64     `json:"eps,omitempty" jsonschema:"Neighborhood radius. Leave empty to select it automatically from the k-distance curve"`
	Metric    string      `json:"metric,omitempty" jsonschema:"Distance metric: 'euclidean' or 'cosine'"`
	Precision string      `json:"precision,omitempty" jsonschema:"Vector precision: 'float32' or 'float16'"`
}

type ClusterResult struct {
	RunID    string  `json:"run_id"`
	Eps      float64 `json:"eps"`
	Knee     int     `json:"knee"` // -1 when eps was explicit or the median fallback was used
	Clusters [][]int `json:"clusters"`
	Noise    []int   `json:"noise"`
}

type EstimateEpsArgs struct {
	Points    [][]float32 `json:"points,omitempty" jsonschema:"The points to profile"`
	Path      string      `json:"path,omitempty" jsonschema:"Server side file of 2D points, used when points is empty"`
	MinPts    int         `json:"min_pts,omitempty" jsonschema:"Number of nearest neighbors averaged per point"`
	Metric    string      `json:"metric,omitempty"`
	Precision string      `json:"precision,omitempty"`
}

type EstimateEpsResult struct {
	Eps      float64 `json:"eps"`
	Knee     int     `json:"knee"`
	Fallback bool    `json:"fallback"` // true when no elbow was found and the curve median was used
}

type FindKneeArgs struct {
	X        []float64 `json:"x" jsonschema:"Strictly increasing sample positions"`
	Y        []float64 `json:"y" jsonschema:"Curve values, same length as x"`
	Strategy string    `json:"strategy,omitempty" jsonschema:"Detection strategy: 'amethod' (default) or 'kneedle'"`
	Elbow    bool      `json:"elbow,omitempty" jsonschema:"If true, look for an elbow (convex curve) instead of a knee"`
}

type FindKneeResult struct {
	Index int  `json:"index"`
	Found bool `json:"found"`
}
