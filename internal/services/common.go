package services

import (
	"fmt"
	"time"

	"duespay/pkg/utils"
)

// GenerateReference builds a human-readable code for claim rows, e.g.
// CLM20260829153000-a1f3.
func GenerateReference(prefix string) string {
	return fmt.Sprintf("%s%s-%s", prefix, time.Now().Format("20060102150405"), utils.GenerateRandomString(4))
}
