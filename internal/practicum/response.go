package practicum

import (
	"bytes"
	"encoding/json"
	"fmt"

	"homework_bot/internal/model"
)

var jsonNull = []byte("null")

// CheckResponse validates a raw review API answer. The answer must be a JSON
// object with a "homeworks" array and an integer "current_date". Homeworks
// are returned undecoded in server order.
func CheckResponse(raw []byte) (model.Response, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return model.Response{}, fmt.Errorf("%w: response is not a JSON object: %w", ErrResponseShape, err)
	}
	if fields == nil {
		return model.Response{}, fmt.Errorf("%w: response is null", ErrResponseShape)
	}

	homeworksRaw, ok := fields["homeworks"]
	if !ok {
		return model.Response{}, fmt.Errorf("%w: no homeworks key in response", ErrEmptyResponse)
	}
	dateRaw, ok := fields["current_date"]
	if !ok {
		return model.Response{}, fmt.Errorf("%w: no current_date key in response", ErrEmptyResponse)
	}

	var items []json.RawMessage
	if isNull(homeworksRaw) {
		return model.Response{}, fmt.Errorf("%w: homeworks is null, not a list", ErrResponseShape)
	}
	if err := json.Unmarshal(homeworksRaw, &items); err != nil {
		return model.Response{}, fmt.Errorf("%w: homeworks is not a list", ErrResponseShape)
	}

	var currentDate int64
	if isNull(dateRaw) {
		return model.Response{}, fmt.Errorf("%w: current_date is null", ErrResponseShape)
	}
	if err := json.Unmarshal(dateRaw, &currentDate); err != nil {
		return model.Response{}, fmt.Errorf("%w: current_date is not an integer", ErrResponseShape)
	}

	if items == nil {
		items = []json.RawMessage{}
	}
	return model.Response{Homeworks: items, CurrentDate: currentDate}, nil
}

// DecodeHomework decodes one element of the homeworks list. Missing or null
// fields decode as empty strings and are left to ParseStatus. A status that
// is not a string is an unknown status; a name that is not a string counts
// as missing.
func DecodeHomework(raw json.RawMessage) (model.Homework, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return model.Homework{}, fmt.Errorf("%w: homework is not an object", ErrResponseShape)
	}

	var hw model.Homework
	if v, ok := fields["status"]; ok && !isNull(v) {
		var status string
		if err := json.Unmarshal(v, &status); err != nil {
			return model.Homework{}, fmt.Errorf("%w: status %s", ErrUnknownStatus, bytes.TrimSpace(v))
		}
		hw.Status = model.Status(status)
	}
	if v, ok := fields["homework_name"]; ok && !isNull(v) {
		if err := json.Unmarshal(v, &hw.Name); err != nil {
			return model.Homework{}, fmt.Errorf("%w: homework_name is not a string", ErrEmptyResponse)
		}
	}
	return hw, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), jsonNull)
}
