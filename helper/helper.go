package helper

// RemoveDuplicate removes duplicates entries in a list, keeping the first
// occurrence of each
func RemoveDuplicate(s []string) []string {
	keys := make(map[string]bool)
	result := []string{}
	for _, i := range s {
		if !keys[i] {
			keys[i] = true
			result = append(result, i)
		}
	}
	return result
}

// Contains tells whether s holds e
func Contains(s []string, e string) bool {
	for _, i := range s {
		if i == e {
			return true
		}
	}
	return false
}
