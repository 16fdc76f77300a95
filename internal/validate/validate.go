// README: Client-side input validation for phone numbers and OTP codes.
package validate

import "regexp"

// usPattern accepts North-American numbers with optional +1/1 prefix and
// optional space, dash, or dot separators. Area code and exchange must not
// start with 0 or 1.
var usPattern = regexp.MustCompile(`^(?:\+1|1)?[ -.]?\(?([2-9][0-9]{2})\)?[ -.]?([2-9][0-9]{2})[ -.]?([0-9]{4})$`)

// internationalPattern accepts +<country code> followed by a separator and
// up to 15 digits.
var internationalPattern = regexp.MustCompile(`^\+\d{1,4}[ -.]\d{1,15}$`)

var otpPattern = regexp.MustCompile(`^\d{6}$`)

// IsValidPhoneNumber reports whether the string is an acceptable US or
// international phone number. Validation happens before any network call;
// a rejected number never reaches the remote API.
func IsValidPhoneNumber(number string) bool {
	return usPattern.MatchString(number) || internationalPattern.MatchString(number)
}

// IsValidOTP reports whether the string is exactly six numeric digits.
func IsValidOTP(otp string) bool {
	return otpPattern.MatchString(otp)
}
