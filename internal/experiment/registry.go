package experiment

import (
	"fmt"

	"github.com/san-kum/genrel/internal/gr"
	"github.com/san-kum/genrel/internal/render"
	"github.com/san-kum/genrel/internal/sym"
)

// StageInfo describes how a stage's output is named and printed.
type StageInfo struct {
	Stage       gr.Stage
	Title       string
	Symbol      string
	Upper       int
	Description string
}

type Registry struct {
	stages map[string]StageInfo
	order  []string
}

func NewRegistry() *Registry {
	r := &Registry{stages: make(map[string]StageInfo)}

	r.add(StageInfo{gr.StageInverse, "Inverse metric", "g", 2, "contravariant metric g^{αβ}"})
	r.add(StageInfo{gr.StageChristoffel, "Christoffel symbols", "Γ", 1, "connection coefficients Γ^α_{βγ}"})
	r.add(StageInfo{gr.StageRiemann, "Riemann tensor", "R", 1, "curvature tensor R^α_{βγδ}"})
	r.add(StageInfo{gr.StageRicci, "Ricci tensor", "R", 0, "contraction R_{αβ} = R^γ_{αγβ}"})
	r.add(StageInfo{gr.StageRicciScalar, "Ricci scalar", "R", 0, "trace R = g^{αβ} R_{αβ}"})
	r.add(StageInfo{gr.StageEinstein, "Einstein tensor", "G", 0, "G_{αβ} = R_{αβ} - R g_{αβ}/2"})
	r.add(StageInfo{gr.StageBianchi, "Bianchi divergence", "∇G", 0, "covariant divergence ∇_μ G^μ_ν"})
	r.add(StageInfo{gr.StageKretschmann, "Kretschmann scalar", "K", 0, "R_{αβγδ} R^{αβγδ}"})

	return r
}

func (r *Registry) add(info StageInfo) {
	name := string(info.Stage)
	if _, ok := r.stages[name]; !ok {
		r.order = append(r.order, name)
	}
	r.stages[name] = info
}

func (r *Registry) Get(name string) (StageInfo, error) {
	info, ok := r.stages[name]
	if !ok {
		return StageInfo{}, fmt.Errorf("unknown stage: %s", name)
	}
	return info, nil
}

// List returns stage names in pipeline order.
func (r *Registry) List() []string {
	return append([]string(nil), r.order...)
}

// RenderOptions returns printer options that label a stage's output with
// its symbol and the metric's coordinates.
func (r *Registry) RenderOptions(s gr.Stage, key []sym.Symbol) []render.Option {
	info, ok := r.stages[string(s)]
	if !ok {
		return []render.Option{render.WithCoordinates(key)}
	}
	return []render.Option{
		render.WithName(info.Symbol),
		render.WithCoordinates(key),
		render.WithUpper(info.Upper),
	}
}
