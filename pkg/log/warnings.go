package log

import (
	"github.com/rs/zerolog"

	"github.com/simonthor/zfit/pkg/errors"
)

// UseZerologWarnings はライブラリの警告（ConvergenceWarningなど）を
// zerologの構造化warnイベントとして出力するように登録します。
// 登録後はSetWarningHandlerで設定されたハンドラより優先されます。
//
// 例:
//
//	log.UseZerologWarnings(zerolog.New(os.Stderr).With().Timestamp().Logger())
func UseZerologWarnings(logger zerolog.Logger) {
	errors.SetZerologWarnFunc(func(warning error) {
		if obj, ok := warning.(zerolog.LogObjectMarshaler); ok {
			logger.Warn().EmbedObject(obj).Msg("fit warning")
			return
		}
		logger.Warn().Err(warning).Msg("fit warning")
	})
}
