package present

import (
	"math"

	"github.com/nao1215/surveydash/derive"
	"github.com/nao1215/surveydash/domain/model"
)

// Heatmap is a labelled square grid. Cells[i][j] is nil where the matrix is undefined.
type Heatmap struct {
	Title  string       `json:"title"`
	Labels []string     `json:"labels"`
	Cells  [][]*float64 `json:"cells"`
}

// HeatmapChart lays out a correlation or significance snapshot as loaded,
// optionally restricted to the given variables in the given order. Variables the
// snapshot does not contain are skipped.
func HeatmapChart(snapshot *model.Table, variables ...string) (*Heatmap, error) {
	m, err := derive.MatrixFromTable(snapshot)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(m.Names))
	for i, name := range m.Names {
		index[name] = i
	}
	picked := make([]int, 0, len(m.Names))
	if len(variables) == 0 {
		for i := range m.Names {
			picked = append(picked, i)
		}
	}
	for _, v := range variables {
		if i, ok := index[v]; ok {
			picked = append(picked, i)
		}
	}

	h := &Heatmap{
		Title:  snapshot.Name(),
		Labels: make([]string, len(picked)),
		Cells:  make([][]*float64, len(picked)),
	}
	for a, i := range picked {
		h.Labels[a] = m.Names[i]
		h.Cells[a] = make([]*float64, len(picked))
		for b, j := range picked {
			v := m.Values[i][j]
			if math.IsNaN(v) {
				continue
			}
			h.Cells[a][b] = &v
		}
	}
	return h, nil
}
