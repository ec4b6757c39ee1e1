package logging

type Category string
type SubCategory string
type ExtraKey string

const (
	General         Category = "General"
	Internal        Category = "Internal"
	Config          Category = "Config"
	RequestResponse Category = "RequestResponse"
	Prometheus      Category = "Prometheus"
	Tracing         Category = "Tracing"
)

const (
	// General
	Startup  SubCategory = "Startup"
	Shutdown SubCategory = "Shutdown"

	// Internal
	Api             SubCategory = "Api"
	ExternalService SubCategory = "ExternalService"
)

const (
	AppName      ExtraKey = "AppName"
	LoggerName   ExtraKey = "Logger"
	RequestID    ExtraKey = "RequestId"
	ClientIp     ExtraKey = "ClientIp"
	Method       ExtraKey = "Method"
	StatusCode   ExtraKey = "StatusCode"
	BodySize     ExtraKey = "BodySize"
	Path         ExtraKey = "Path"
	Latency      ExtraKey = "Latency"
	UserAgent    ExtraKey = "UserAgent"
	Query        ExtraKey = "Query"
	Address      ExtraKey = "Address"
	ConfigPath   ExtraKey = "ConfigPath"
	ErrorMessage ExtraKey = "ErrorMessage"
)
