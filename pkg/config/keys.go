package config

import (
	"reflect"
)

// knownKeys returns every koanf key on Config. Environment variables outside
// this set are ignored so unrelated variables like PATH never reach the
// unmarshaller.
func knownKeys() map[string]struct{} {
	keys := map[string]struct{}{}
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("koanf")
		if tag == "" || tag == "-" {
			continue
		}
		keys[tag] = struct{}{}
	}
	return keys
}
