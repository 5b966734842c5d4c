package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nekogravitycat/signup-site/internal/apiclient"
)

var testPositions = []apiclient.Position{{ID: 1, Name: "Lawyer"}, {ID: 2, Name: "Designer"}}

func validInput() Input {
	return Input{
		Name:       "Ann Smith",
		Email:      "ann@example.com",
		Phone:      "+380501234567",
		PositionID: 2,
		Photo:      &Photo{ContentType: "image/jpeg", Size: 1024},
	}
}

func TestCheckAllValid(t *testing.T) {
	errs := NewRules().CheckAll(validInput(), testPositions)
	assert.True(t, errs.Valid(), "unexpected errors: %v", errs)
}

func TestCheckAllEmptyDraft(t *testing.T) {
	errs := NewRules().CheckAll(Input{}, testPositions)

	assert.Equal(t, Errors{
		FieldName:     MsgRequired,
		FieldEmail:    MsgRequired,
		FieldPhone:    MsgRequired,
		FieldPosition: MsgRequired,
		FieldPhoto:    MsgPhotoRequired,
	}, errs)
}

func TestNameLength(t *testing.T) {
	rules := NewRules()
	cases := map[string]string{
		"A":                      MsgNameTooShort,
		"Al":                     "",
		strings.Repeat("a", 60):  "",
		strings.Repeat("a", 61):  MsgNameTooLong,
		"Олександр":              "",
		strings.Repeat("ї", 60):  "",
		strings.Repeat("ї", 61):  MsgNameTooLong,
	}

	for name, want := range cases {
		in := validInput()
		in.Name = name
		assert.Equal(t, want, rules.Check(FieldName, in, testPositions), "name %q", name)
	}
}

func TestEmail(t *testing.T) {
	rules := NewRules()
	cases := map[string]string{
		"ann@example.com":     "",
		"ann.smith+x@mail.ua": "",
		"ann@":                MsgInvalidEmail,
		"ann.example.com":     MsgInvalidEmail,
		"":                    MsgRequired,
	}

	for email, want := range cases {
		in := validInput()
		in.Email = email
		assert.Equal(t, want, rules.Check(FieldEmail, in, testPositions), "email %q", email)
	}
}

func TestPhoneMatchesPattern(t *testing.T) {
	rules := NewRules()
	cases := map[string]bool{
		"+380501234567":  true,
		"380501234567":   true,
		"+38050123456":   false,
		"+3805012345678": false,
		"+381501234567":  false,
		"++380501234567": false,
		"+380 50 123 45": false,
		"+38050123456a":  false,
		"0501234567":     false,
		"+380٥01234567":  false,
		"":               false,
	}

	for phone, accept := range cases {
		in := validInput()
		in.Phone = phone
		msg := rules.Check(FieldPhone, in, testPositions)
		assert.Equal(t, accept, msg == "", "phone %q: %q", phone, msg)
		assert.Equal(t, phonePattern.MatchString(phone), msg == "", "phone %q", phone)
	}
}

func TestPosition(t *testing.T) {
	rules := NewRules()

	in := validInput()
	in.PositionID = 0
	assert.Equal(t, MsgRequired, rules.Check(FieldPosition, in, testPositions))

	in.PositionID = 99
	assert.Equal(t, MsgUnknownRole, rules.Check(FieldPosition, in, testPositions))

	in.PositionID = 1
	assert.Empty(t, rules.Check(FieldPosition, in, testPositions))

	assert.Equal(t, MsgUnknownRole, rules.Check(FieldPosition, in, nil), "no loaded positions means nothing is selectable")
}

func TestPhotoSizeAndType(t *testing.T) {
	rules := NewRules()
	cases := []struct {
		contentType string
		size        int64
		accept      bool
	}{
		{"image/jpeg", 1, true},
		{"image/jpg", MaxPhotoSize, true},
		{"IMAGE/JPEG; charset=binary", 10, true},
		{"image/jpeg", MaxPhotoSize + 1, false},
		{"image/png", 10, false},
		{"application/octet-stream", 10, false},
		{"", 10, false},
	}

	for _, tc := range cases {
		in := validInput()
		in.Photo = &Photo{ContentType: tc.contentType, Size: tc.size}
		msg := rules.Check(FieldPhoto, in, testPositions)
		assert.Equal(t, tc.accept, msg == "", "photo %q/%d: %q", tc.contentType, tc.size, msg)
	}

	in := validInput()
	in.Photo = &Photo{ContentType: "image/png", Size: MaxPhotoSize + 1}
	assert.Equal(t, MsgPhotoTooLarge, rules.Check(FieldPhoto, in, testPositions), "size is reported before type")
}

func TestDetectContentType(t *testing.T) {
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

	assert.Equal(t, "image/jpeg", DetectContentType("", jpeg))
	assert.Equal(t, "image/jpeg", DetectContentType("application/octet-stream", jpeg))
	assert.Equal(t, "image/png", DetectContentType("image/PNG", jpeg), "a specific declaration wins")
	assert.Equal(t, "text/plain", DetectContentType("", []byte("hello world")))
}
