//go:build !linux

package core

import (
	"github.com/jowharshamshiri/GoTermuxGUI/pkg/models"
)

// BindAbstractListener always fails: the abstract socket namespace is Linux only
func BindAbstractListener(name string) (*AbstractListener, error) {
	return nil, models.NewGUIError(models.BindError, "abstract socket namespace is not supported on this platform")
}
