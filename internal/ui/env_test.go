package ui

import "os"

func lookupNoColor() (string, bool) {
	return os.LookupEnv("NO_COLOR")
}
