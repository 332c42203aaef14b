package logging

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	namespace          = "log"
	LevelFlag          = namespace + ".level"
	FormatFlag         = namespace + ".format"
	outputAsStdoutFlag = namespace + ".output-as-stdout"
)

func RegisterFlags(fs *pflag.FlagSet) {
	opts := defaultLogOpts()
	fs.String(LevelFlag, opts.level.String(), "Log level. Available options: panic, fatal, error, warn (default), info, debug and trace.")
	fs.String(FormatFlag, string(opts.format), "Log output format. Available options: text (default), json.")
	fs.Bool(outputAsStdoutFlag, false, "Print logs to stdout instead of stderr.")
}

func SetupLoggingWithViper(v *viper.Viper) {
	opts := []LogOption{
		WithLogFormat(LogFormat(v.GetString(FormatFlag))),
		WithLogLevel(v.GetString(LevelFlag)),
	}
	if v.GetBool(outputAsStdoutFlag) {
		opts = append(opts, WithLogOutputAsStdout())
	}
	SetupLogging(opts...)
}
