package models

// SimulationConfig is the record handed to the simulation engine when the
// configuration dialog is confirmed. The JSON keys are the engine's contract.
type SimulationConfig struct {
	Graph           string `json:"graph" yaml:"graph"`
	Strategy        string `json:"strategy" yaml:"strategy"`
	NumFirefighters int    `json:"num_ffs" yaml:"num_ffs"`
	NumFireSources  int    `json:"num_roots" yaml:"num_roots"`
}

// GridBounds is the minimal/maximal latitude and longitude of a graph region
type GridBounds struct {
	MinLat float64 `json:"min_lat" yaml:"min_lat"`
	MaxLat float64 `json:"max_lat" yaml:"max_lat"`
	MinLon float64 `json:"min_lon" yaml:"min_lon"`
	MaxLon float64 `json:"max_lon" yaml:"max_lon"`
}

// Coords is a latitude/longitude pair
type Coords struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// SimulationResponse summarizes a finished simulation run on the engine
type SimulationResponse struct {
	NodesBurned   int        `json:"nodes_burned" yaml:"nodes_burned"`
	NodesDefended int        `json:"nodes_defended" yaml:"nodes_defended"`
	NodesTotal    int        `json:"nodes_total" yaml:"nodes_total"`
	EndTime       uint64     `json:"end_time" yaml:"end_time"`
	ViewBounds    GridBounds `json:"view_bounds" yaml:"view_bounds"`
	ViewCenter    Coords     `json:"view_center" yaml:"view_center"`
}

// BurnedRatio returns the share of graph nodes that burned during the run
func (r SimulationResponse) BurnedRatio() float64 {
	if r.NodesTotal == 0 {
		return 0
	}
	return float64(r.NodesBurned) / float64(r.NodesTotal)
}

// SimulationRequest is the settings body the engine reads when starting a
// run. It differs from SimulationConfig in key names and carries the
// firefighter frequency as strategy_every.
type SimulationRequest struct {
	GraphName     string `json:"graph_name" yaml:"graph_name"`
	StrategyName  string `json:"strategy_name" yaml:"strategy_name"`
	NumRoots      int    `json:"num_roots" yaml:"num_roots"`
	NumFFs        int    `json:"num_ffs" yaml:"num_ffs"`
	StrategyEvery uint64 `json:"strategy_every" yaml:"strategy_every"`
}

// NewSimulationRequest maps a confirmed record and the firefighter frequency
// onto the engine's settings. A negative frequency is sent as 0.
func NewSimulationRequest(cfg SimulationConfig, frequency int) SimulationRequest {
	if frequency < 0 {
		frequency = 0
	}
	return SimulationRequest{
		GraphName:     cfg.Graph,
		StrategyName:  cfg.Strategy,
		NumRoots:      cfg.NumFireSources,
		NumFFs:        cfg.NumFirefighters,
		StrategyEvery: uint64(frequency),
	}
}
