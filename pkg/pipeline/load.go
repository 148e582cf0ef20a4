package pipeline

import (
	"bytes"
	"os"

	"github.com/matzehuels/netgrid/pkg/errors"
	netio "github.com/matzehuels/netgrid/pkg/io"
	"github.com/matzehuels/netgrid/pkg/netlist"
)

// ReadInput returns the raw netlist bytes named by opts.
func ReadInput(opts Options) ([]byte, error) {
	if len(opts.Netlist) > 0 {
		return opts.Netlist, nil
	}
	if opts.Path == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "netlist or path is required")
	}
	data, err := os.ReadFile(opts.Path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "netlist %s", opts.Path)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Load decodes a Yosys JSON netlist.
func Load(data []byte) (*netlist.Netlist, error) {
	return netio.ReadYosys(bytes.NewReader(data))
}
