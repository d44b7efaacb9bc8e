package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lunixbochs/argjoy"
	"github.com/pkg/errors"

	intrbox "github.com/lunixbochs/intrbox/go"
	"github.com/lunixbochs/intrbox/go/models"
)

// Context is what a shell command runs against.
type Context struct {
	io.Writer
	Sys *intrbox.System

	channels models.ChannelTable
}

func (c *Context) Printf(format string, a ...interface{}) (n int, err error) {
	return fmt.Fprintf(c, format, a...)
}

// shellCodec converts shell words into command parameters.
func shellCodec(arg interface{}, vals []interface{}) error {
	s, ok := vals[0].(string)
	if !ok {
		return argjoy.NoMatch
	}
	switch v := arg.(type) {
	case *models.DeviceClass:
		dev, ok := models.ParseDeviceClass(strings.ToLower(s))
		if !ok {
			return errors.Errorf("unknown device class %q", s)
		}
		*v = dev
	case *models.Status:
		n, err := strconv.ParseInt(s, 0, 32)
		if err != nil {
			return err
		}
		*v = models.Status(n)
	case *int:
		n, err := strconv.ParseInt(s, 0, 0)
		if err != nil {
			return err
		}
		*v = int(n)
	case *int32:
		n, err := strconv.ParseInt(s, 0, 32)
		if err != nil {
			return err
		}
		*v = int32(n)
	case *uint64:
		n, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return err
		}
		*v = n
	default:
		return argjoy.NoMatch
	}
	return nil
}
