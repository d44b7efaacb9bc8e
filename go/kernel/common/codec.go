package common

import (
	"github.com/lunixbochs/argjoy"

	"github.com/lunixbochs/intrbox/go/models"
)

func argCodec(arg interface{}, vals []interface{}) error {
	if reg, ok := vals[0].(uint64); ok {
		switch v := arg.(type) {
		case *bool:
			*v = reg != 0
		case *models.DeviceClass:
			*v = models.DeviceClass(reg)
		case *models.Status:
			*v = models.Status(int32(reg))
		default:
			return argjoy.NoMatch
		}
		return nil
	}
	return argjoy.NoMatch
}
