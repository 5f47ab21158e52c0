package util

import (
	"net"
	"strconv"
)

func JoinHostPort(addr string, port int) string {
	return net.JoinHostPort(addr, strconv.Itoa(port))
}

func ContainsString(heap []string, needle string) bool {
	for _, v := range heap {
		if v == needle {
			return true
		}
	}
	return false
}

func Union[T any](slices ...[]T) []T {
	res := make([]T, 0)
	for _, s := range slices {
		res = append(res, s...)
	}
	return res
}
