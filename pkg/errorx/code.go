package errorx

type Code int

var Unknown = Error{Code: 100000, Message: "Request failed"}

const (
	// Common codes
	BadRequest       Code = 100001
	BadResponse      Code = 100002
	PermissionDenied Code = 100003
	NotFound         Code = 100004
	Unauthenticated  Code = 100005
	AlreadyExists    Code = 100006
	Internal         Code = 100007
	Unavailable      Code = 100008
	NotImplemented   Code = 100009
	TooManyRequests  Code = 100010

	// Vault codes
	InsufficientFunds Code = 200001
	NothingToWithdraw Code = 200002

	// Ticket codes
	AlreadyDrawn   Code = 300001
	AlreadyClaimed Code = 300002
	NotDrawn       Code = 300003
	NoPrize        Code = 300004
	NotOwner       Code = 300005
	BatchTooLarge  Code = 300006

	// Round codes
	RoundStillOpen Code = 400001
	RoundNotEnded  Code = 400002
	RoundFinalized Code = 400003

	// System codes
	Paused Code = 500001
)
