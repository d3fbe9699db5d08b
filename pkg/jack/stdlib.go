package jack

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed stdlib.json
var content string

// StandardLibraryABI is the signature table of the Jack OS: class name -> subroutine
// name -> Subroutine. Only Name/Type/Return carry real information here, since these
// classes have no bodies in the compiled source set — they're assumed to be linked in
// from a separately compiled Jack OS, and the compiler only needs to know whether a
// call resolves and whether it dispatches as a function, method, or constructor.
var StandardLibraryABI = map[string]map[string]Subroutine{}

func init() {
	if err := json.Unmarshal([]byte(content), &StandardLibraryABI); err != nil {
		panic(fmt.Sprintf("jack: malformed embedded stdlib.json: %s", err))
	}
}
