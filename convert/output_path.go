package convert

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"

	"foflow/common"
	"foflow/config"
	"foflow/state"
)

// outputPath returns where the area tree goes. Empty destination means
// standard output. An existing directory receives a file named after the
// source, cleaned up and if requested transliterated. Anything else is used
// as the file name.
func outputPath(src, dst string, format common.OutputFmt, env *state.LocalEnv) string {
	if dst == "" {
		return ""
	}
	if fi, err := os.Stat(dst); err == nil && fi.IsDir() {
		return filepath.Join(dst, defaultFileName(src, format, env))
	}
	return dst
}

func defaultFileName(src string, format common.OutputFmt, env *state.LocalEnv) string {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	if env.Cfg.Output.FileNameTransliterate {
		base = slug.Make(base)
	}
	return config.ReportName(base) + format.Ext()
}
