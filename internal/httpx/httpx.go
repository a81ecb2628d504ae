package httpx

import (
	"net/url"
	"strconv"
)

// QueryInt fetches an integer query parameter with a default value.
func QueryInt(u *url.URL, key string, defaultValue int) int {
	val := u.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// QueryString fetches a query string parameter with a default value.
func QueryString(u *url.URL, key, defaultValue string) string {
	val := u.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	return val
}

// WithQuery returns a copy of u with the given parameters set and deleted.
// All other query state is preserved untouched.
func WithQuery(u *url.URL, set map[string]string, del ...string) *url.URL {
	clone := *u
	q := clone.Query()
	for k, v := range set {
		q.Set(k, v)
	}
	for _, k := range del {
		q.Del(k)
	}
	clone.RawQuery = q.Encode()
	return &clone
}
