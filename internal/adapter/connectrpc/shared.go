package connectrpc

import (
	"github.com/eslsoft/wordpicker/internal/repository"
)

const _maxPageSize = 10000

func convertPagination(pageNo, pageSize, defaultPageSize int32) repository.Pagination {
	if pageNo <= 0 {
		pageNo = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > _maxPageSize {
		pageSize = _maxPageSize
	}

	return repository.Pagination{PageNo: pageNo, PageSize: pageSize}
}
