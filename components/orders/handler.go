package orders

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/goliatone/go-propdash/pkg/listfilter"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// Row is a record decorated with its badge label and tone.
type Row struct {
	listfilter.Record
	StatusLabel string          `json:"statusLabel"`
	Tone        listfilter.Tone `json:"tone"`
}

type listResponse struct {
	Data     []Row            `json:"data"`
	Total    int              `json:"total"`
	Query    listfilter.Query `json:"query"`
	Statuses []string         `json:"statuses"`
	Empty    bool             `json:"empty"`
}

// Handler builds a net/http handler with default options plus any overrides.
func Handler(fns ...OptionFn) http.Handler {
	return NewHandler(fns...)
}

func NewHandler(fns ...OptionFn) http.Handler {
	opts := NewOptions(fns...)
	return HandlerWithOptions(opts)
}

// HandlerWithOptions builds a net/http handler from a pre-constructed Options value.
func HandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	view := listfilter.NewView(opts.Records, opts.Statuses, opts.Searchable...)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				writeGuardError(w, err)
				return
			}
		}

		params := r.URL.Query()
		query := listfilter.Query{
			Text:   params.Get(opts.SearchParam),
			Status: params.Get(opts.StatusParam),
		}
		if query.Status == "" {
			query.Status = listfilter.StatusAll
		}

		matched := view.Apply(query)
		limit := clampLimit(parseInt(params.Get(opts.LimitParam)), opts)
		shown := matched
		if len(shown) > limit {
			shown = shown[:limit]
		}

		rows := make([]Row, 0, len(shown))
		for _, record := range shown {
			rows = append(rows, Row{
				Record:      record,
				StatusLabel: listfilter.StatusLabel(record.Status),
				Tone:        listfilter.StatusTone(record.Status),
			})
		}

		statuses := view.Statuses()
		if statuses == nil {
			statuses = []string{}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}

		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(true)
		_ = enc.Encode(listResponse{
			Data:     rows,
			Total:    len(matched),
			Query:    query,
			Statuses: statuses,
			Empty:    len(matched) == 0,
		})
	})
}

func writeGuardError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	if err == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}

func parseInt(raw string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
