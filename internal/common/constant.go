package common

// AccessTokenHeaderName is the gRPC/HTTP metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// UserAgentHeaderName is the metadata key the transport fills with the
// caller's user agent.
const UserAgentHeaderName = "user-agent"

// ErrorDomain identifies Cipher in structured error details.
const ErrorDomain = "cipher"
