package handlers

import (
	"errors"
	"net/http"
	"reflect"

	"duespay/pkg/utils"
)

func CheckBlankFields(value interface{}) error {
	val := reflect.ValueOf(value)
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if field.Kind() == reflect.String && field.String() == "" {
			return utils.ErrorHandler(errors.New("all fields are required"), "all fields are required")
		}
	}
	return nil
}

// RequesterID reads the authenticated user id the JWT middleware put in
// the request context. JWT numeric claims decode as float64.
func RequesterID(r *http.Request) (int, bool) {
	idFloat, ok := r.Context().Value(utils.ContextKey("userId")).(float64)
	if !ok {
		return 0, false
	}
	return int(idFloat), true
}

func RequesterRole(r *http.Request) string {
	role, _ := r.Context().Value(utils.ContextKey("role")).(string)
	return role
}
