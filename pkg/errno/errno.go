package errno

// Errno defines the error code logic
type Errno struct {
	Code    int
	Message string
}

func (e Errno) Error() string {
	return e.Message
}

// Decode tries to convert an error to Errno
func Decode(err error) (int, string) {
	if err == nil {
		return OK.Code, OK.Message
	}

	switch typed := err.(type) {
	case *Errno:
		return typed.Code, typed.Message
	case Errno:
		return typed.Code, typed.Message
	default:
		return InternalServerError.Code, err.Error()
	}
}

// WithMessage returns a copy of e carrying a more specific message,
// keeping the original code so clients can still switch on it.
func (e Errno) WithMessage(msg string) Errno {
	e.Message = msg
	return e
}

// Common Errors
var (
	OK                  = Errno{Code: 0, Message: "Success"}
	InternalServerError = Errno{Code: 10001, Message: "Internal server error"}
	ErrBind             = Errno{Code: 10002, Message: "Error occurred while binding the request body to the struct"}
	ErrNodeUnavailable  = Errno{Code: 10003, Message: "TRON node unavailable"}
	ErrDatabase         = Errno{Code: 10004, Message: "Database error"}
)

// Business Errors (20000+)
var (
	ErrInvalidMnemonic     = Errno{Code: 20101, Message: "Invalid mnemonic"}
	ErrInvalidPrivateKey   = Errno{Code: 20102, Message: "Invalid private key"}
	ErrInvalidAddress      = Errno{Code: 20103, Message: "Invalid address"}
	ErrSameAddress         = Errno{Code: 20104, Message: "Sender and recipient must differ"}
	ErrTransactionFailed   = Errno{Code: 20201, Message: "Transaction failed"}
	ErrTransactionNotFound = Errno{Code: 20202, Message: "Transaction not found"}
)
