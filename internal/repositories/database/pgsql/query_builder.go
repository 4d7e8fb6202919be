package pgsql

import (
	"strconv"
	"strings"

	"github.com/SscSPs/remesas_backend/internal/core/domain"
)

// whereBuilder accumulates AND-ed conditions with positional arguments.
type whereBuilder struct {
	conds []string
	args  []interface{}
}

// arg registers v and returns its placeholder.
func (w *whereBuilder) arg(v interface{}) string {
	w.args = append(w.args, v)
	return "$" + strconv.Itoa(len(w.args))
}

func (w *whereBuilder) add(cond string) {
	w.conds = append(w.conds, cond)
}

// addRange restricts col to the half-open range r.
func (w *whereBuilder) addRange(col string, r domain.DateRange) {
	if r.From != nil {
		w.add(col + " >= " + w.arg(*r.From))
	}
	if r.To != nil {
		w.add(col + " < " + w.arg(*r.To))
	}
}

func (w *whereBuilder) clause() string {
	if len(w.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.conds, " AND ")
}
