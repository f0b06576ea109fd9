package log_test

import (
	"fmt"

	olog "github.com/LerianStudio/lib-openhours/openhours/log"
)

func ExampleParseLevel() {
	level, err := olog.ParseLevel("warning")

	fmt.Println(err == nil)
	fmt.Println(level.String())

	// Output:
	// true
	// warn
}
