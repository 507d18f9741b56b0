package config

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/golang/glog"
)

type logMsg func(string, ...interface{})

var mapregex = regexp.MustCompile(`mapstructure:"([^"]+)"`)
var blocklistregexp = []*regexp.Regexp{
	regexp.MustCompile("password"),
}

// logGeneral will log nearly any sort of value, but requires the name of the root object to be in the
// prefix to get proper formatting.
func logGeneral(v reflect.Value, prefix string) {
	logGeneralWithLogger(v, prefix, glog.Infof)
}

func logGeneralWithLogger(v reflect.Value, prefix string, logger logMsg) {
	if v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			logger("%s: nil", prefix)
			return
		}
		logGeneralWithLogger(v.Elem(), prefix, logger)
		return
	}

	switch v.Kind() {
	case reflect.Struct:
		logStructWithLogger(v, prefix, logger)
	case reflect.Map:
		logMapWithLogger(v, prefix, logger)
	default:
		logger("%s: %v", prefix, v)
	}
}

func logStructWithLogger(v reflect.Value, prefix string, logger logMsg) {
	for i := 0; i < v.NumField(); i++ {
		var fieldname string
		field := v.Type().Field(i)
		if match := mapregex.FindStringSubmatch(string(field.Tag)); match != nil {
			fieldname = match[1]
		} else {
			fieldname = "((" + field.Name + "))"
		}
		if prefix != "" {
			fieldname = prefix + "." + fieldname
		}
		if allowedName(fieldname) {
			logGeneralWithLogger(v.Field(i), fieldname, logger)
		} else {
			logger("%s: <REDACTED>", fieldname)
		}
	}
}

func logMapWithLogger(v reflect.Value, prefix string, logger logMsg) {
	for _, k := range v.MapKeys() {
		logGeneralWithLogger(v.MapIndex(k), fmt.Sprintf("%s[%v]", prefix, k), logger)
	}
}

func allowedName(name string) bool {
	for _, r := range blocklistregexp {
		if r.MatchString(name) {
			return false
		}
	}
	return true
}
