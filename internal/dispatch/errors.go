package dispatch

import (
	"errors"
	"fmt"
)

var errNoScenes = errors.New("no scenes are configured")

func errSceneNotFound(name string) error {
	return fmt.Errorf("scene %q is not registered", name)
}
