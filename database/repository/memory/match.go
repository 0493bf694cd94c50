package memory

import (
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// toDoc renders v the way the driver would store it.
func toDoc(v any) bson.M {
	raw, err := bson.Marshal(v)
	if err != nil {
		panic(err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		panic(err)
	}
	return m
}

// fromDoc decodes a stored document into out.
func fromDoc(m bson.M, out any) {
	raw, err := bson.Marshal(m)
	if err != nil {
		panic(err)
	}
	if err := bson.Unmarshal(raw, out); err != nil {
		panic(err)
	}
}

func lookup(doc bson.M, path string) (any, bool) {
	var cur any = doc
	for _, part := range strings.Split(path, ".") {
		var m bson.M
		switch node := cur.(type) {
		case bson.M:
			m = node
		case bson.D:
			m = node.Map()
		default:
			return nil, false
		}
		var ok bool
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// matches evaluates the subset of the query language used by the repositories:
// equality, $and, $or, $in, $ne, $gt, $gte, $lt, $lte and $regex.
func matches(doc bson.M, filter bson.M) bool {
	for key, want := range filter {
		switch key {
		case "$and":
			for _, sub := range asList(want) {
				if !matches(doc, asFilter(sub)) {
					return false
				}
			}
		case "$or":
			matched := false
			for _, sub := range asList(want) {
				if matches(doc, asFilter(sub)) {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		default:
			got, _ := lookup(doc, key)
			if !fieldMatches(got, want) {
				return false
			}
		}
	}
	return true
}

func fieldMatches(got, want any) bool {
	if ops, ok := operatorDoc(want); ok {
		for op, arg := range ops {
			if !applyOperator(got, op, arg) {
				return false
			}
		}
		return true
	}
	return equalOrContains(got, want)
}

func operatorDoc(v any) (bson.M, bool) {
	m, ok := v.(bson.M)
	if !ok || len(m) == 0 {
		return nil, false
	}
	for k := range m {
		if !strings.HasPrefix(k, "$") {
			return nil, false
		}
	}
	return m, true
}

func applyOperator(got any, op string, arg any) bool {
	switch op {
	case "$in":
		for _, candidate := range asList(arg) {
			if equalOrContains(got, candidate) {
				return true
			}
		}
		return false
	case "$ne":
		return !equalOrContains(got, arg)
	case "$gt":
		c, ok := compare(got, arg)
		return ok && c > 0
	case "$gte":
		c, ok := compare(got, arg)
		return ok && c >= 0
	case "$lt":
		c, ok := compare(got, arg)
		return ok && c < 0
	case "$lte":
		c, ok := compare(got, arg)
		return ok && c <= 0
	case "$regex":
		s, ok := got.(string)
		if !ok {
			return false
		}
		pattern := ""
		switch r := arg.(type) {
		case primitive.Regex:
			pattern = r.Pattern
			if strings.Contains(r.Options, "i") {
				pattern = "(?i)" + pattern
			}
		case string:
			pattern = r
		}
		re, err := regexp.Compile(pattern)
		return err == nil && re.MatchString(s)
	}
	return false
}

func equalOrContains(got, want any) bool {
	if arr, ok := got.(bson.A); ok {
		for _, el := range arr {
			if c, ok := compare(el, want); ok && c == 0 {
				return true
			}
		}
		return false
	}
	c, ok := compare(got, want)
	return ok && c == 0
}

// normalize reduces stored and query values to float64, string, bool or time.Time.
func normalize(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case primitive.DateTime:
		return t.Time().UTC()
	case time.Time:
		return t.UTC().Truncate(time.Millisecond)
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case float64:
		return t
	case string, bool:
		return t
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	}
	return v
}

func compare(a, b any) (int, bool) {
	a, b = normalize(a), normalize(b)
	switch x := a.(type) {
	case float64:
		y, ok := b.(float64)
		if !ok {
			return 0, false
		}
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}
		return 0, true
	case string:
		y, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(x, y), true
	case bool:
		y, ok := b.(bool)
		if !ok || x != y {
			return 1, ok
		}
		return 0, true
	case time.Time:
		y, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return x.Compare(y), true
	case nil:
		if b == nil {
			return 0, true
		}
	}
	return 0, false
}

func asList(v any) []any {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{v}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

func asFilter(v any) bson.M {
	switch f := v.(type) {
	case bson.M:
		return f
	case map[string]any:
		return bson.M(f)
	}
	return bson.M{}
}

func sortDocs(docs []bson.M, order bson.D) {
	sort.SliceStable(docs, func(i, j int) bool {
		for _, key := range order {
			a, _ := lookup(docs[i], key.Key)
			b, _ := lookup(docs[j], key.Key)
			c, ok := compare(a, b)
			if !ok || c == 0 {
				continue
			}
			if dir, _ := normalize(key.Value).(float64); dir < 0 {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}
