package utils

func StringPtr(s string) *string { return &s }

func BoolPtr(b bool) *bool { return &b }
