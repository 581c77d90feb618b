package contract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
)

// DescribeRevert decodes revert data carried by a node error into a
// readable reason using the built-in ABIs' custom errors and Error(string).
// It returns err unchanged when there is nothing to decode.
func DescribeRevert(err error) error {
	if err == nil {
		return nil
	}
	var de gethrpc.DataError
	if !errors.As(err, &de) {
		return err
	}
	s, ok := de.ErrorData().(string)
	if !ok {
		return err
	}
	data, decErr := hexutil.Decode(s)
	if decErr != nil || len(data) < 4 {
		return err
	}
	if reason := decodeRevertData(data); reason != "" {
		return fmt.Errorf("%w: %s", err, reason)
	}
	return err
}

func decodeRevertData(data []byte) string {
	if reason, err := abi.UnpackRevert(data); err == nil {
		return reason
	}
	for _, b := range AllBuiltins() {
		for _, e := range b.ABI.Errors {
			if string(e.ID[:4]) != string(data[:4]) {
				continue
			}
			args, err := e.Inputs.Unpack(data[4:])
			if err != nil {
				return e.Name
			}
			parts := make([]string, len(args))
			for i, a := range args {
				parts[i] = fmt.Sprintf("%s=%v", e.Inputs[i].Name, a)
			}
			return e.Name + "(" + strings.Join(parts, ", ") + ")"
		}
	}
	return ""
}
