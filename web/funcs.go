package web

import "time"

func currentYear() int {
	return time.Now().Year()
}
