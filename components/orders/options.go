package orders

import (
	"net/http"

	"github.com/goliatone/go-propdash/pkg/listfilter"
)

type GuardFunc func(r *http.Request) error

type Options struct {
	RoutePath    string
	SearchParam  string
	StatusParam  string
	LimitParam   string
	DefaultLimit int
	MaxLimit     int
	Guard        GuardFunc

	Records    []listfilter.Record
	Statuses   []string
	Searchable []string
}

type OptionFn func(*Options)

// DefaultSearchable matches the dashboard search box: customer, property, id.
var DefaultSearchable = []string{listfilter.FieldCustomer, listfilter.FieldProperty, listfilter.FieldID}

func DefaultOptions() Options {
	return Options{
		RoutePath:    "/api/orders",
		SearchParam:  "q",
		StatusParam:  "status",
		LimitParam:   "limit",
		DefaultLimit: 100,
		MaxLimit:     500,
		Searchable:   append([]string(nil), DefaultSearchable...),
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 100
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 500
	}
	if opts.RoutePath == "" {
		opts.RoutePath = "/api/orders"
	}
	if opts.SearchParam == "" {
		opts.SearchParam = "q"
	}
	if opts.StatusParam == "" {
		opts.StatusParam = "status"
	}
	if opts.LimitParam == "" {
		opts.LimitParam = "limit"
	}
	if len(opts.Searchable) == 0 {
		opts.Searchable = append([]string(nil), DefaultSearchable...)
	} else {
		opts.Searchable = append([]string(nil), opts.Searchable...)
	}
	opts.Records = append([]listfilter.Record(nil), opts.Records...)
	if opts.Statuses != nil {
		opts.Statuses = append([]string{}, opts.Statuses...)
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

func WithSearchParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SearchParam = name
	}
}

func WithStatusParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.StatusParam = name
	}
}

func WithLimitParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.LimitParam = name
	}
}

func WithDefaultLimit(limit int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.DefaultLimit = limit
	}
}

func WithMaxLimit(limit int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxLimit = limit
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

// WithRecords sets the record set and the statuses it may carry. A nil
// statuses slice accepts any status value.
func WithRecords(records []listfilter.Record, statuses []string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Records = append([]listfilter.Record(nil), records...)
		if statuses == nil {
			o.Statuses = nil
			return
		}
		o.Statuses = append([]string{}, statuses...)
	}
}

func WithSearchable(fields ...string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Searchable = append([]string(nil), fields...)
	}
}

func clampLimit(limit int, opts Options) int {
	if limit < 0 {
		return 0
	}
	if limit == 0 {
		limit = opts.DefaultLimit
	}
	if opts.MaxLimit > 0 && limit > opts.MaxLimit {
		return opts.MaxLimit
	}
	return limit
}
