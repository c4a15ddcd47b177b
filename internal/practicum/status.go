package practicum

import (
	"fmt"

	"homework_bot/internal/model"
)

// NoNewStatuses is reported when the review API returns an empty list.
const NoNewStatuses = "Новых статусов нет"

// Verdicts maps a review status to the sentence shown to the user.
var Verdicts = map[model.Status]string{
	model.StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
	model.StatusReviewing: "Работа взята на проверку ревьюером.",
	model.StatusRejected:  "Работа проверена: у ревьюера есть замечания.",
}

// ParseStatus renders the notification text for a homework.
func ParseStatus(hw model.Homework) (string, error) {
	if hw.Status == "" {
		return "", fmt.Errorf("%w: status is empty", ErrEmptyResponse)
	}
	if hw.Name == "" {
		return "", fmt.Errorf("%w: homework_name is empty", ErrEmptyResponse)
	}
	verdict, ok := Verdicts[hw.Status]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, hw.Status)
	}
	return fmt.Sprintf("Изменился статус проверки работы \"%s\". %s", hw.Name, verdict), nil
}
