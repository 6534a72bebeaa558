package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Parse    bool
	Validate bool
	Path     bool
	Diff     bool
	Apply    bool
	Merge    bool
}

var d *debug

func init() {
	d = &debug{}
	d.Parse = boolEnv("YD_DEBUG_PARSE")
	d.Validate = boolEnv("YD_DEBUG_VALIDATE")
	d.Path = boolEnv("YD_DEBUG_PATH")
	d.Diff = boolEnv("YD_DEBUG_DIFF")
	d.Apply = boolEnv("YD_DEBUG_APPLY")
	d.Merge = boolEnv("YD_DEBUG_MERGE")
	if boolEnv("YD_DEBUG") {
		*d = debug{true, true, true, true, true, true}
	}
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Parse() bool {
	return d.Parse
}
func Validate() bool {
	return d.Validate
}
func Path() bool {
	return d.Path
}
func Diff() bool {
	return d.Diff
}
func Apply() bool {
	return d.Apply
}
func Merge() bool {
	return d.Merge
}
