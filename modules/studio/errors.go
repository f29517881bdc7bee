package studio

import "fmt"

// FetchError - 원격 이미지 다운로드 실패. 어떤 URL이 실패했는지 보존한다.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch image from %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NoImageGeneratedError - API 응답에 이미지 데이터가 없음
type NoImageGeneratedError struct {
	Model string
}

func (e *NoImageGeneratedError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("no image was generated by model %s", e.Model)
	}
	return "no image was generated"
}
