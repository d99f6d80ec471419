package elog

// SQLState is a five-character SQLSTATE error code.
type SQLState string

// Error codes raised by the grammar and the harness.
const (
	ErrcodeSuccessfulCompletion            SQLState = "00000"
	ErrcodeWarning                         SQLState = "01000"
	ErrcodeNonstandardUseOfEscapeCharacter SQLState = "22P06"
	ErrcodeCharacterNotInRepertoire        SQLState = "22021"
	ErrcodeNumericValueOutOfRange          SQLState = "22003"
	ErrcodeInvalidParameterValue           SQLState = "22023"
	ErrcodeInvalidEscapeSequence           SQLState = "22025"
	ErrcodeSyntaxError                     SQLState = "42601"
	ErrcodeNameTooLong                     SQLState = "42622"
	ErrcodeFeatureNotSupported             SQLState = "0A000"
	ErrcodeProgramLimitExceeded            SQLState = "54000"
	ErrcodeOutOfMemory                     SQLState = "53200"
	ErrcodeInternalError                   SQLState = "XX000"
)

// unknownSQLState is reported for records that carry no code.
const unknownSQLState = "XXXXX"

// Code returns the code as printed in reports: always five characters.
func (c SQLState) Code() string {
	if !c.Valid() {
		return unknownSQLState
	}
	return string(c)
}

// Valid reports whether c is five characters drawn from 0-9 and A-Z.
func (c SQLState) Valid() bool {
	if len(c) != 5 {
		return false
	}
	for i := 0; i < len(c); i++ {
		ch := c[i]
		if !(ch >= '0' && ch <= '9') && !(ch >= 'A' && ch <= 'Z') {
			return false
		}
	}
	return true
}

// Class returns the two-character class of the code, e.g. "42".
func (c SQLState) Class() string {
	if !c.Valid() {
		return unknownSQLState[:2]
	}
	return string(c[:2])
}
