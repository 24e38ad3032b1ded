package report

import "time"

const datetimeFormat = "2006-01-02 15:04:05"

func stepDatetime(initialDatetime string, timeLapse float64) (string, error) {
	t, err := time.Parse(datetimeFormat, initialDatetime)
	if err != nil {
		return "", err
	}
	return t.Add(time.Duration(timeLapse * float64(time.Hour))).Format(datetimeFormat), nil
}
