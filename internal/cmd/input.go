package cmd

import (
	"io"
	"os"

	crewerrors "github.com/felixgeelhaar/crewgen/internal/errors"
)

// readInput reads path, or stdin when path is "-".
func readInput(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", crewerrors.Wrap(crewerrors.ErrCodeFileReadFailed, "failed to read stdin", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", crewerrors.NewFileNotFoundError(path)
		}
		return "", crewerrors.Wrap(crewerrors.ErrCodeFileReadFailed, "failed to read "+path, err)
	}
	return string(data), nil
}
