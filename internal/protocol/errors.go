package protocol

// 错误码
const (
	ErrCodeUnknown        = 1000
	ErrCodeInvalidMsg     = 1001
	ErrCodeInvalidPayload = 1002
	ErrCodeUnknownMode    = 2001
	ErrCodeNotYourTurn    = 3001
	ErrCodeTableClosed    = 4001
	ErrCodeServerFull     = 5003
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:        "Errore sconosciuto",
	ErrCodeInvalidMsg:     "Messaggio non valido",
	ErrCodeInvalidPayload: "Dati del messaggio non validi",
	ErrCodeUnknownMode:    "Modalità sconosciuta",
	ErrCodeNotYourTurn:    "Non è il tuo turno",
	ErrCodeTableClosed:    "Il tavolo è chiuso",
	ErrCodeServerFull:     "Server pieno, riprova più tardi",
}
