package utils

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"wheelstrust/database/repository"
	"wheelstrust/models"

	"go.mongodb.org/mongo-driver/bson"
)

// FieldKind decides how a filter value is converted.
type FieldKind int

const (
	StringField FieldKind = iota
	NumberField
	BoolField
	DateField
)

// Filterable maps query parameter names to stored field kinds.
type Filterable map[string]FieldKind

var rangeOperators = map[string]string{
	"gt":  "$gt",
	"gte": "$gte",
	"lt":  "$lt",
	"lte": "$lte",
	"in":  "$in",
}

var reservedParams = map[string]bool{"select": true, "sort": true, "page": true, "limit": true, "q": true}

// ParseListQuery turns select, sort, page, limit and field[op]=value parameters into
// a ListQuery. Parameters naming fields outside allowed are ignored. A field given
// both as field=value and field[op]=value is rejected.
func ParseListQuery(values url.Values, allowed Filterable) (repository.ListQuery, error) {
	q := repository.ListQuery{Filter: bson.M{}}

	for key, vals := range values {
		if reservedParams[key] || len(vals) == 0 {
			continue
		}
		field, op := splitOperator(key)
		kind, ok := allowed[field]
		if !ok {
			continue
		}
		if op == "" {
			if _, isRange := q.Filter[field].(bson.M); isRange {
				return q, mixedFilterError(field)
			}
			v, err := convertValue(field, kind, vals[0])
			if err != nil {
				return q, err
			}
			q.Filter[field] = v
			continue
		}
		mongoOp, ok := rangeOperators[op]
		if !ok {
			return q, InvalidField(field, fmt.Sprintf("unsupported operator %q", op))
		}
		var v any
		if op == "in" {
			parts := strings.Split(vals[0], ",")
			list := make([]any, 0, len(parts))
			for _, p := range parts {
				cv, err := convertValue(field, kind, strings.TrimSpace(p))
				if err != nil {
					return q, err
				}
				list = append(list, cv)
			}
			v = list
		} else {
			cv, err := convertValue(field, kind, vals[0])
			if err != nil {
				return q, err
			}
			v = cv
		}
		existing, present := q.Filter[field]
		cond, _ := existing.(bson.M)
		if present && cond == nil {
			return q, mixedFilterError(field)
		}
		if cond == nil {
			cond = bson.M{}
		}
		cond[mongoOp] = v
		q.Filter[field] = cond
	}

	if sel := values.Get("select"); sel != "" {
		q.Projection = bson.M{"id": 1}
		for _, f := range splitList(sel) {
			q.Projection[f] = 1
		}
	}
	if sortParam := values.Get("sort"); sortParam != "" {
		for _, f := range splitList(sortParam) {
			dir := 1
			if strings.HasPrefix(f, "-") {
				dir = -1
				f = strings.TrimPrefix(f, "-")
			}
			q.Sort = append(q.Sort, bson.E{Key: f, Value: dir})
		}
	}

	var err error
	if q.Page, err = parsePositive(values.Get("page"), "page"); err != nil {
		return q, err
	}
	if q.Limit, err = parsePositive(values.Get("limit"), "limit"); err != nil {
		return q, err
	}
	return q.Normalize(), nil
}

func mixedFilterError(field string) *AppError {
	return InvalidField(field, field+" cannot combine an exact value with range operators")
}

// splitOperator splits "price[gte]" into ("price", "gte").
func splitOperator(key string) (string, string) {
	open := strings.IndexByte(key, '[')
	if open < 0 || !strings.HasSuffix(key, "]") {
		return key, ""
	}
	return key[:open], key[open+1 : len(key)-1]
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parsePositive(raw, field string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		return 0, InvalidField(field, field+" must be a positive integer")
	}
	return n, nil
}

func convertValue(field string, kind FieldKind, raw string) (any, error) {
	switch kind {
	case NumberField:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, InvalidField(field, field+" must be a number")
		}
		return f, nil
	case BoolField:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, InvalidField(field, field+" must be true or false")
		}
		return b, nil
	case DateField:
		t, err := models.ParseCalendarDate(raw)
		if err != nil {
			return nil, InvalidField(field, err.Error())
		}
		return t, nil
	default:
		return raw, nil
	}
}
