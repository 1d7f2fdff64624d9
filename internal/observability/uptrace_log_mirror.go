package observability

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/riskibarqy/fc24pred/internal/platform/logging"
	otellog "go.opentelemetry.io/otel/log"
	otelglobal "go.opentelemetry.io/otel/log/global"
	"go.uber.org/zap/zapcore"
)

const (
	uptraceLogInstrumentation = "fc24pred/internal/platform/logging"
	healthPath                = "/healthz"
)

// newUptraceLogMirror forwards logger records to the global OTel log provider
// that uptrace.ConfigureOpentelemetry installs.
func newUptraceLogMirror(serviceVersion string) logging.MirrorFunc {
	otelLogger := otelglobal.Logger(
		uptraceLogInstrumentation,
		otellog.WithInstrumentationVersion(serviceVersion),
	)

	return func(ctx context.Context, level logging.Level, msg string, args ...any) {
		if isHealthProbeLog(msg, args) {
			return
		}
		if ctx == nil {
			ctx = context.Background()
		}

		severity := otelSeverity(level)
		if !otelLogger.Enabled(ctx, otellog.EnabledParameters{Severity: severity, EventName: msg}) {
			return
		}

		var record otellog.Record
		now := time.Now().UTC()
		record.SetTimestamp(now)
		record.SetObservedTimestamp(now)
		record.SetSeverity(severity)
		record.SetSeverityText(level.CapitalString())
		record.SetEventName(msg)
		record.SetBody(otellog.StringValue(msg))
		if attrs := otelAttributes(args); len(attrs) > 0 {
			record.AddAttributes(attrs...)
		}

		otelLogger.Emit(ctx, record)
	}
}

func isHealthProbeLog(msg string, args []any) bool {
	if msg != "http request" {
		return false
	}
	for i := 0; i+1 < len(args); i += 2 {
		if key, _ := args[i].(string); key == "path" {
			path, _ := args[i+1].(string)
			return path == healthPath
		}
	}
	return false
}

// otelAttributes converts key/value pairs the same way the zap side does:
// a non-string key becomes "arg", a dangling key gets an empty value.
func otelAttributes(args []any) []otellog.KeyValue {
	if len(args) == 0 {
		return nil
	}

	attrs := make([]otellog.KeyValue, 0, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok || key == "" {
			key = "arg_" + strconv.Itoa(i/2)
		}
		if i+1 >= len(args) {
			attrs = append(attrs, otellog.Empty(key))
			break
		}
		attrs = append(attrs, otellog.KeyValue{Key: key, Value: otelValue(args[i+1])})
	}
	return attrs
}

func otelSeverity(level zapcore.Level) otellog.Severity {
	switch level {
	case zapcore.DebugLevel:
		return otellog.SeverityDebug
	case zapcore.InfoLevel:
		return otellog.SeverityInfo
	case zapcore.WarnLevel:
		return otellog.SeverityWarn
	case zapcore.ErrorLevel:
		return otellog.SeverityError
	default:
		if level < zapcore.DebugLevel {
			return otellog.SeverityDebug
		}
		return otellog.SeverityFatal
	}
}

// otelValue covers the value types the service logs; anything else is
// rendered with fmt.
func otelValue(value any) otellog.Value {
	switch v := value.(type) {
	case nil:
		return otellog.Value{}
	case string:
		return otellog.StringValue(v)
	case bool:
		return otellog.BoolValue(v)
	case int:
		return otellog.IntValue(v)
	case int64:
		return otellog.Int64Value(v)
	case uint64:
		if v > math.MaxInt64 {
			return otellog.StringValue(strconv.FormatUint(v, 10))
		}
		return otellog.Int64Value(int64(v))
	case float64:
		return otellog.Float64Value(v)
	case time.Duration:
		return otellog.StringValue(v.String())
	case time.Time:
		return otellog.StringValue(v.UTC().Format(time.RFC3339Nano))
	case error:
		return otellog.StringValue(v.Error())
	case []string:
		items := make([]otellog.Value, 0, len(v))
		for _, item := range v {
			items = append(items, otellog.StringValue(item))
		}
		return otellog.SliceValue(items...)
	case []float64:
		items := make([]otellog.Value, 0, len(v))
		for _, item := range v {
			items = append(items, otellog.Float64Value(item))
		}
		return otellog.SliceValue(items...)
	case fmt.Stringer:
		return otellog.StringValue(v.String())
	default:
		return otellog.StringValue(fmt.Sprint(v))
	}
}
