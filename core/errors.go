package core

const (
	ErrBadConfig = -1*iota - 100
	ErrInvalidPath
	ErrIOReadFail
	ErrRunTime
	ErrMarshalFail
	ErrCacheErr
	ErrParseAmbiguous
	ErrUnsupportedAction
	ErrRenderFail
	ErrSendFail

	ErrNetWriteFail
	ErrNetReadFail
	ErrNetUnknown
	ErrNetTimeout
	ErrNetConnect
	ErrNetDNS
)

var ErrCodeNames = map[int]string{
	ErrBadConfig:         "BadConfig",
	ErrInvalidPath:       "InvalidPath",
	ErrIOReadFail:        "IOReadFail",
	ErrRunTime:           "RunTime",
	ErrMarshalFail:       "MarshalFail",
	ErrCacheErr:          "CacheErr",
	ErrParseAmbiguous:    "ParseAmbiguous",
	ErrUnsupportedAction: "UnsupportedAction",
	ErrRenderFail:        "RenderFail",
	ErrSendFail:          "SendFail",
	ErrNetWriteFail:      "NetWriteFail",
	ErrNetReadFail:       "NetReadFail",
	ErrNetUnknown:        "NetUnknown",
	ErrNetTimeout:        "NetTimeout",
	ErrNetConnect:        "NetConnect",
	ErrNetDNS:            "NetDNS",
}

/*
IsNetErr reports whether the code marks a transport failure rather than a remote status.
*/
func IsNetErr(code int) bool {
	return code <= ErrNetWriteFail && code >= ErrNetDNS
}
