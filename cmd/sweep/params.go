package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pthm-cable/lovehate/config"
)

// ParamSpec defines one swept parameter and the values it takes.
type ParamSpec struct {
	Name   string    // column name in the results
	Path   string    // config path for logging
	Values []float64 // values visited, in order
}

// Point is one combination of parameter values, aligned with the specs.
type Point []float64

// ParamGrid is the cartesian product of all parameter values.
type ParamGrid struct {
	Specs []ParamSpec
}

// knownParams maps sweepable names to their config paths.
var knownParams = map[string]string{
	"count":  "population.count",
	"radius": "population.radius",
	"speed":  "motion.speed",
}

// ParseParam parses "name=v1,v2,..." into a ParamSpec.
func ParseParam(s string) (ParamSpec, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok {
		return ParamSpec{}, fmt.Errorf("param %q: want name=v1,v2", s)
	}
	path, known := knownParams[name]
	if !known {
		return ParamSpec{}, fmt.Errorf("param %q: unknown parameter %q", s, name)
	}

	spec := ParamSpec{Name: name, Path: path}
	for _, field := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return ParamSpec{}, fmt.Errorf("param %q: %w", s, err)
		}
		spec.Values = append(spec.Values, v)
	}
	return spec, nil
}

// Dim returns the number of swept parameters.
func (g *ParamGrid) Dim() int {
	return len(g.Specs)
}

// Points enumerates every combination, the last parameter varying fastest.
func (g *ParamGrid) Points() []Point {
	points := []Point{{}}
	for _, spec := range g.Specs {
		next := make([]Point, 0, len(points)*len(spec.Values))
		for _, p := range points {
			for _, v := range spec.Values {
				q := make(Point, len(p), len(p)+1)
				copy(q, p)
				next = append(next, append(q, v))
			}
		}
		points = next
	}
	return points
}

// ApplyToConfig writes a point's values into cfg.
func (g *ParamGrid) ApplyToConfig(cfg *config.Config, p Point) {
	for i, spec := range g.Specs {
		switch spec.Name {
		case "count":
			cfg.Population.Count = int(p[i])
		case "radius":
			cfg.Population.Radius = p[i]
		case "speed":
			cfg.Motion.Speed = p[i]
		}
	}
}

// Label renders a point as name=value pairs.
func (g *ParamGrid) Label(p Point) string {
	parts := make([]string, len(g.Specs))
	for i, spec := range g.Specs {
		parts[i] = fmt.Sprintf("%s=%g", spec.Name, p[i])
	}
	return strings.Join(parts, " ")
}
