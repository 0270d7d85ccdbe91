package examples

import (
	_ "embed"
	"sync"

	"github.com/Parrot-Developers/libARCommands-sub000/pkg/model"
	"github.com/Parrot-Developers/libARCommands-sub000/pkg/specparse"
)

// DemoSchema is the YAML source of the demo registry.
//
//go:embed demo.yaml
var DemoSchema []byte

// Demo command identities.
var (
	CommonAllStates   = model.ID(0, 4, 0)
	CommonCurrentDate = model.ID(0, 4, 1)
	SettingsName      = model.ID(0, 2, 1)

	CameraTakePhoto   = model.ID(1, model.FeatureClass, 5)
	CameraSetExposure = model.ID(1, model.FeatureClass, 6)
	CameraSetZoom     = model.ID(1, model.FeatureClass, 7)
	CameraPhotoMode   = model.ID(1, model.FeatureClass, 8)
	CameraAlerts      = model.ID(1, model.FeatureClass, 9)
	CameraSetConfig   = model.ID(1, model.FeatureClass, 10)
	CameraPing        = model.ID(1, model.FeatureClass, 11)
	CameraTelemetry   = model.ID(1, model.FeatureClass, 12)
	CameraSetLabel    = model.ID(1, model.FeatureClass, 13)

	PilotingFlatTrim = model.ID(2, 0, 0)
	PilotingTakeOff  = model.ID(2, 0, 1)
	PilotingPCMD     = model.ID(2, 0, 2)
	PilotingLanding  = model.ID(2, 0, 3)
	AnimationsFlip   = model.ID(2, 5, 0)
)

var (
	demoOnce sync.Once
	demoReg  *model.Registry
	demoErr  error
)

// Registry returns the sealed demo registry. The registry is built once and
// shared; it is read-only.
func Registry() *model.Registry {
	demoOnce.Do(func() {
		demoReg, demoErr = specparse.ParseRegistry(DemoSchema)
	})
	if demoErr != nil {
		panic("examples: invalid demo schema: " + demoErr.Error())
	}
	return demoReg
}

// CameraConfig returns an empty CameraConfig aggregate for the demo registry.
func CameraConfig() *model.Multisetting {
	reg := Registry()
	info, _ := reg.Lookup(CameraSetConfig)
	return model.NewMultisetting(reg, info.Command.Args[0].Multisetting)
}
